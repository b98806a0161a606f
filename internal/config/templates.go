package config

import (
	"fmt"
	"os"
)

// Template returns the commented example pipeline config.
func Template() string {
	return pipelineTemplate
}

// WriteTemplate writes the example config, refusing to overwrite unless
// asked to.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(pipelineTemplate), 0o600)
}

const pipelineTemplate = `data_path = "data/adult.data"
output_dir = "outputs"
eval_fraction = 0.2
seed = 42
inject_anomalies = true
write_html = false
fail_on_anomalies = false

[schema]
min_presence = 0.9
domain_slack = 0.0
infer_bounds = true

# The dataset roster defaults to the Adult census columns. Override only
# when pointing the pipeline at a different header-less CSV.
# [dataset]
# name = "adult"
# columns = ["age", "workclass", "..."]
# numeric = ["age", "..."]
# categorical = ["workclass", "..."]
# na_values = ["?"]
# label = "label"

# Injection steps replace the built-in defaults when present.
[[inject]]
kind = "inject.badtype"
column = "age"
fraction = 0.02

[[inject]]
kind = "inject.range"
column = "hours-per-week"
value = "-5"
count = 8

[[inject]]
kind = "inject.category"
column = "relationship"
value = "gamer"
fraction = 0.03

[[inject]]
kind = "inject.missing"
column = "workclass"
fraction = 0.15
`
