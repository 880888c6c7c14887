package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCheckoutRequest struct {
	CustomerName string `json:"customer_name" validate:"required,max=255"`
	ProductID    int64  `json:"product_id" validate:"required,gt=0"`
	Status       string `json:"status" validate:"omitempty,oneof=Returned Purchased"`
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeName bool, includeProduct bool) bool {
			reqMap := make(map[string]interface{})
			if includeName {
				reqMap["customer_name"] = "Ana"
			}
			if includeProduct {
				reqMap["product_id"] = 7
			}

			body, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/trials", bytes.NewReader(body))

			var parsed testCheckoutRequest
			err := DecodeAndValidate(req, &parsed)

			if includeName && includeProduct {
				return err == nil
			}
			return err != nil && len(FormatValidationErrors(err)) > 0
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ProductIDMustBePositive(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("product ids at or below zero fail validation", prop.ForAll(
		func(id int64) bool {
			err := ValidateRequest(&testCheckoutRequest{CustomerName: "Ana", ProductID: id})
			if id > 0 {
				return err == nil
			}
			return err != nil
		},
		gen.Int64Range(-100, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFormatValidationErrors_Messages(t *testing.T) {
	err := ValidateRequest(&testCheckoutRequest{ProductID: 1, CustomerName: "Ana", Status: "On_Trial"})
	require.Error(t, err)

	formatted := FormatValidationErrors(err)
	require.Len(t, formatted, 1)
	assert.Equal(t, "Status", formatted[0].Field)
	assert.Equal(t, "Value must be one of: Returned Purchased", formatted[0].Message)
}

func TestDecodeAndValidate_RejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/trials", bytes.NewReader([]byte(`{"customer_name":"Ana","product_id":1,"hold":true}`)))

	var parsed testCheckoutRequest
	assert.Error(t, DecodeAndValidate(req, &parsed))
}
