package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestStruct struct {
	Title    string `validate:"required,min=3"`
	Status   string `validate:"omitempty,record_status"`
	Priority string `validate:"omitempty,priority"`
}

func TestValidateStruct(t *testing.T) {
	testCases := []struct {
		name             string
		input            TestStruct
		expectError      bool
		expectedErrorMsg string
	}{
		{
			name: "Success: All fields are valid",
			input: TestStruct{
				Title:    "Payment gateway timeout",
				Status:   "Investigating",
				Priority: "High",
			},
			expectError: false,
		},
		{
			name: "Success: Optional fields may be empty",
			input: TestStruct{
				Title: "Payment gateway timeout",
			},
			expectError: false,
		},
		{
			name: "Failure: Unknown status",
			input: TestStruct{
				Title:  "Payment gateway timeout",
				Status: "Pending",
			},
			expectError:      true,
			expectedErrorMsg: "field 'Status' must be one of Open, Investigating, Resolved, Closed",
		},
		{
			name: "Failure: Unknown priority",
			input: TestStruct{
				Title:    "Payment gateway timeout",
				Priority: "Urgent",
			},
			expectError:      true,
			expectedErrorMsg: "field 'Priority' must be one of Low, Medium, High, Critical",
		},
		{
			name: "Failure: Missing required field (Title)",
			input: TestStruct{
				Status: "Open",
			},
			expectError:      true,
			expectedErrorMsg: "field 'Title' failed on the 'required' tag",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStruct(tc.input)

			if tc.expectError {
				assert.Error(t, err)
				require.IsType(t, &ValidationError{}, err, "error should be of type ValidationError")
				verr := err.(*ValidationError)
				assert.Contains(t, verr.Error(), tc.expectedErrorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []string{"error 1", "error 2"},
	}
	assert.Equal(t, "error 1, error 2", err.Error())
}
