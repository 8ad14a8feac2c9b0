package apierror_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"owners-health-api/pkg/apierror"
)

func Test_Domain_Errors_Carry_Status_And_Code(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    *apierror.Error
		status int
		code   string
	}{
		{"nonce mismatch", apierror.NonceMismatch(), http.StatusConflict, "NONCE_MISMATCH"},
		{"conflict", apierror.Conflict("taken"), http.StatusConflict, "CONFLICT"},
		{"generation unavailable", apierror.GenerationUnavailable(), http.StatusServiceUnavailable, "GENERATION_UNAVAILABLE"},
		{"service unavailable", apierror.ServiceUnavailable(""), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"generation failed", apierror.GenerationFailed(""), http.StatusBadGateway, "GENERATION_FAILED"},
		{"not found", apierror.NotFound(""), http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func Test_FromValidation_Lists_Failing_Fields(t *testing.T) {
	t.Parallel()

	type input struct {
		Name string `validate:"required"`
		Memo string `validate:"max=3"`
	}
	err := validator.New().Struct(input{Memo: "too long"})
	require.Error(t, err)

	apiErr := apierror.FromValidation(err)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	require.Len(t, apiErr.Details, 2)
	assert.Equal(t, "Name", apiErr.Details[0].Field)
	assert.Equal(t, "is required", apiErr.Details[0].Message)
	assert.Equal(t, "must be at most 3 characters", apiErr.Details[1].Message)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string                `json:"code"`
			Details []apierror.FieldError `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(apiErr.ToJSON(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Len(t, body.Error.Details, 2)
}
