package domain_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/osmosis-labs/sumtree-orderbook/domain"
)

// TestParseNumbers tests parsing a string of numbers to a slice of int64
func TestParseNumbers(t *testing.T) {
	testCases := []struct {
		input           string
		expectedNumbers []int64
		expectedError   bool
	}{
		{"", nil, false},                    // Empty string, expecting an empty slice and no error
		{"1,2,3", []int64{1, 2, 3}, false},  // Comma-separated numbers, expecting slice {1, 2, 3} and no error
		{"42", []int64{42}, false},          // Single number, expecting slice {42} and no error
		{"-1500000, 0, 40000000", []int64{-1500000, 0, 40000000}, false}, // Negative tick IDs are valid

		{"abc", nil, true}, // Invalid input, expecting an error
	}

	for _, testCase := range testCases {
		actualNumbers, actualError := domain.ParseNumbers(testCase.input)

		if testCase.expectedError {
			require.Error(t, actualError)
			continue
		}

		// Check if the actual output matches the expected output
		if !reflect.DeepEqual(actualNumbers, testCase.expectedNumbers) {
			t.Errorf("Input: %s, Expected Numbers: %v, Actual Numbers: %v",
				testCase.input, testCase.expectedNumbers, actualNumbers)
		}
	}
}
