package service

import (
	"strconv"
	"strings"

	"github.com/unclebandit/churn-predictor/internal/model"
)

// RetentionScript is the call script handed to the retention desk.
const RetentionScript = "Customer {customer} scored {percentage} churn risk. {advisory}"

// RenderTemplate replaces every {key} in template with data[key].
func RenderTemplate(template string, data map[string]string) string {
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// OfferScript renders RetentionScript for evt.
func OfferScript(evt model.RetentionEvent) string {
	customer := "walk-in"
	if evt.CustomerID != nil {
		customer = "#" + strconv.Itoa(*evt.CustomerID)
	}
	return RenderTemplate(RetentionScript, map[string]string{
		"customer":   customer,
		"percentage": FormatPercentage(evt.Probability),
		"advisory":   evt.Advisory,
	})
}
