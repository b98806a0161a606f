package main

import (
	"flag"
	"log"

	"github.com/datavet/vetctl/internal/config"
)

func main() {
	output := flag.String("output", "vetctl.toml", "output path for the config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "vetctl.toml", "config path for validation")
	force := flag.Bool("force", false, "overwrite an existing config file")
	flag.Parse()

	if *validate {
		if _, err := config.LoadPipelineConfig(*input); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated pipeline config at %s", *input)
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote pipeline config template to %s", *output)
}
