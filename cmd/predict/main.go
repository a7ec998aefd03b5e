// cmd/predict scores a single customer from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/unclebandit/churn-predictor/internal/classifier"
	"github.com/unclebandit/churn-predictor/internal/config"
	"github.com/unclebandit/churn-predictor/internal/form"
	"github.com/unclebandit/churn-predictor/internal/model"
	"github.com/unclebandit/churn-predictor/internal/service"
)

func main() {
	config.LoadDotEnv()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type flags struct {
	fs      *pflag.FlagSet
	strings map[string]*string
	ints    map[string]*int
	floats  map[string]*float64
	asJSON  *bool
}

// newFlags declares one flag per form field, named in kebab-case, with the
// form default.
func newFlags(stderr io.Writer) *flags {
	fs := pflag.NewFlagSet("predict", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	f := &flags{
		fs:      fs,
		strings: map[string]*string{},
		ints:    map[string]*int{},
		floats:  map[string]*float64{},
	}
	for _, field := range form.Fields() {
		name := flagName(field.Key)
		usage := field.Label
		if len(field.Options) > 0 {
			usage = fmt.Sprintf("%s %q", field.Label, field.Options)
		}
		switch v := field.Default.(type) {
		case string:
			f.strings[field.Key] = fs.String(name, v, usage)
		case int:
			f.ints[field.Key] = fs.Int(name, v, usage)
		case float64:
			f.floats[field.Key] = fs.Float64(name, v, usage)
		}
	}
	fs.String("model", config.DefaultModelPath, "path to the model artifact")
	fs.Duration("timeout", 0, "inference timeout (default from INFERENCE_TIMEOUT or 2s)")
	f.asJSON = fs.Bool("json", false, "print the result as JSON")
	return f
}

func flagName(key string) string {
	b := []byte(key)
	for i, c := range b {
		if c == '_' {
			b[i] = '-'
		}
	}
	return string(b)
}

// input returns only the fields the operator actually set, so the form
// collector stays the single owner of defaults.
func (f *flags) input() form.Input {
	str := func(key string) *string {
		if f.fs.Changed(flagName(key)) {
			return f.strings[key]
		}
		return nil
	}
	num := func(key string) *int {
		if f.fs.Changed(flagName(key)) {
			return f.ints[key]
		}
		return nil
	}
	float := func(key string) *float64 {
		if f.fs.Changed(flagName(key)) {
			return f.floats[key]
		}
		return nil
	}
	return form.Input{
		Gender:           str("gender"),
		SeniorCitizen:    num("senior_citizen"),
		Partner:          str("partner"),
		Dependents:       str("dependents"),
		Tenure:           num("tenure"),
		PhoneService:     str("phone_service"),
		MultipleLines:    str("multiple_lines"),
		InternetService:  str("internet_service"),
		OnlineSecurity:   str("online_security"),
		OnlineBackup:     str("online_backup"),
		DeviceProtection: str("device_protection"),
		TechSupport:      str("tech_support"),
		StreamingTV:      str("streaming_tv"),
		StreamingMovies:  str("streaming_movies"),
		Contract:         str("contract"),
		PaperlessBilling: str("paperless_billing"),
		PaymentMethod:    str("payment_method"),
		MonthlyCharges:   float("monthly_charges"),
		TotalCharges:     float("total_charges"),
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	f := newFlags(stderr)
	if err := f.fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	v := config.New()
	_ = v.BindPFlag("model_path", f.fs.Lookup("model"))
	if f.fs.Changed("timeout") {
		_ = v.BindPFlag("inference_timeout", f.fs.Lookup("timeout"))
	}
	cfg := config.FromViper(v)

	artifact, err := classifier.Load(cfg.ModelPath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	svc := &service.ChurnService{
		Inference: service.NewInferenceService(artifact, cfg.InferenceTimeout, nil),
	}
	res, err := svc.Predict(context.Background(), f.input())
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	if *f.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		return 0
	}
	printResult(stdout, artifact.Info(), res)
	return 0
}

func printResult(w io.Writer, info model.ModelInfo, res *model.PredictionResult) {
	fmt.Fprintf(w, "Model: %s %s\n", info.Name, info.Version)
	fmt.Fprintf(w, "Churn Probability: %s\n", res.Percentage)
	fmt.Fprintf(w, "Prediction: %s\n", res.Label)
	fmt.Fprintln(w, res.Message)
	for _, a := range res.Advisories {
		fmt.Fprintf(w, "Advisory: %s\n", a)
	}
}
