package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/tsereda/SiliconToPhonopy/internal/workflows"
)

// RunGenerate renders a workflow's calculation directories to disk, the
// same file sets the API returns as JSON.
func RunGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	outDir := fs.String("out", ".", "output directory")
	if len(args) < 1 {
		log.Fatal("usage: worker generate <relax|surface|vacancy|dftu|d3|phonon> [-out dir]")
	}
	workflow := args[0]
	if err := fs.Parse(args[1:]); err != nil {
		log.Fatal(err)
	}

	var (
		calcs  []*workflows.Calculation
		readme string
		err    error
	)
	switch workflow {
	case "relax":
		var res *workflows.RelaxResult
		if res, err = workflows.Relax(workflows.RelaxRequest{}); err == nil {
			calcs, readme = []*workflows.Calculation{res.Calculation}, res.README
		}
	case "surface":
		var res *workflows.SurfaceResult
		if res, err = workflows.Surface(workflows.SurfaceRequest{}); err == nil {
			calcs, readme = []*workflows.Calculation{res.Calculation}, res.README
		}
	case "vacancy":
		var res *workflows.VacancyResult
		if res, err = workflows.Vacancy(workflows.VacancyRequest{}); err == nil {
			calcs, readme = res.Calculations, res.README
		}
	case "dftu":
		var res *workflows.DftUResult
		if res, err = workflows.DftU(workflows.DftURequest{}); err == nil {
			calcs, readme = res.Calculations, res.README
		}
	case "d3":
		var res *workflows.DispersionResult
		if res, err = workflows.Dispersion(workflows.DispersionRequest{}); err == nil {
			calcs, readme = res.Calculations, res.README
		}
	case "phonon":
		var res *workflows.PhononResult
		if res, err = workflows.Phonon(workflows.PhononRequest{}); err == nil {
			calcs, readme = res.Calculations, res.README
			if err2 := writeFile(filepath.Join(*outDir, "phonon_disp.yaml"), res.Manifest); err2 != nil {
				log.Fatal(err2)
			}
			if err2 := writeFile(filepath.Join(*outDir, "run_all.sh"), res.RunScript); err2 != nil {
				log.Fatal(err2)
			}
		}
	default:
		log.Fatalf("unknown workflow: %s", workflow)
	}
	if err != nil {
		log.Fatalf("generate %s: %v", workflow, err)
	}

	for _, calc := range calcs {
		dir := *outDir
		if len(calcs) > 1 {
			dir = filepath.Join(*outDir, calc.Name)
		}
		if _, err := calc.WriteAll(dir); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %s (%s, %d atoms)\n", dir, calc.Formula, calc.NAtoms)
	}
	if readme != "" {
		if err := writeFile(filepath.Join(*outDir, "README.md"), readme); err != nil {
			log.Fatal(err)
		}
	}
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
