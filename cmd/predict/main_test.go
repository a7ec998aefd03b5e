package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/churn-predictor/internal/model"
)

const modelFlag = "--model=../../models/churn_model.json"

func TestRun_HighRiskCustomer(t *testing.T) {
	var out, errOut bytes.Buffer

	code := run([]string{
		modelFlag,
		"--tenure", "0",
		"--contract", "Month-to-month",
		"--monthly-charges", "90",
		"--total-charges", "90",
		"--internet-service", "Fiber optic",
	}, &out, &errOut)

	require.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), "Churn Probability: ")
	assert.Contains(t, out.String(), "Prediction: Churn")
	assert.Contains(t, out.String(), "Advisory: ")
}

func TestRun_JSONOutput(t *testing.T) {
	var out, errOut bytes.Buffer

	code := run([]string{modelFlag, "--json", "--tenure=60", "--contract=Two year", "--monthly-charges=20", "--total-charges=1200"}, &out, &errOut)

	require.Equal(t, 0, code, errOut.String())
	var res model.PredictionResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, model.LabelNotChurn, res.Label)
	assert.Empty(t, res.Advisories)
	assert.GreaterOrEqual(t, res.Probability, 0.0)
	assert.LessOrEqual(t, res.Probability, 1.0)
}

func TestRun_InvalidFieldValue(t *testing.T) {
	var out, errOut bytes.Buffer

	code := run([]string{modelFlag, "--payment-method", "Cash"}, &out, &errOut)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "payment_method")
	assert.Empty(t, out.String())
}

func TestRun_MissingModel(t *testing.T) {
	var out, errOut bytes.Buffer

	code := run([]string{"--model", t.TempDir() + "/none.json"}, &out, &errOut)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "model unavailable")
}

func TestRun_UnknownFlag(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run([]string{"--churned"}, &out, &errOut))
}

func TestNewFlags_OnePerField(t *testing.T) {
	f := newFlags(&bytes.Buffer{})

	for _, name := range []string{"gender", "senior-citizen", "tenure", "multiple-lines", "payment-method", "monthly-charges", "total-charges"} {
		assert.NotNil(t, f.fs.Lookup(name), name)
	}
	assert.Equal(t, "12", f.fs.Lookup("tenure").DefValue)
	assert.Equal(t, "No phone service", f.fs.Lookup("multiple-lines").DefValue)
}
