// Package twosumii traces the two-pointer solution of LeetCode 167 over a
// sorted array.
//
// The left and right variables and the indices variable are 0-based
// positions. The result variable follows the problem's 1-based answer format.
package twosumii

import (
	"fmt"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/driver"
)

const ID = "two-sum-ii"

// Input is the editable problem input. Numbers must be sorted ascending.
type Input struct {
	Numbers []int `json:"numbers" yaml:"numbers" mapstructure:"numbers"`
	Target  int   `json:"target" yaml:"target" mapstructure:"target"`
}

var Fields = []domain.InputField{
	{Key: "numbers", Label: "Sorted array numbers", Type: domain.FieldArray, Placeholder: "2,7,11,15"},
	{Key: "target", Label: "Target", Type: domain.FieldNumber, Placeholder: "9"},
}

var TestCases = []domain.TestCase[Input]{
	{Label: "Example 1", Value: Input{Numbers: []int{2, 7, 11, 15}, Target: 9}},
	{Label: "Example 2", Value: Input{Numbers: []int{2, 3, 4}, Target: 6}},
	{Label: "Example 3", Value: Input{Numbers: []int{-1, 0}, Target: -1}},
	{Label: "Example 4", Value: Input{Numbers: []int{1, 2, 3, 4, 5, 6}, Target: 10}},
}

// Config binds the adapter to the driver.
func Config() driver.Config[Input] {
	return driver.Config[Input]{
		Problem:      ID,
		Generate:     Generate,
		DefaultInput: TestCases[0].Value,
		Fields:       Fields,
		TestCases:    TestCases,
	}
}

// Generate records every pointer comparison until the pair is found or the
// pointers meet.
func Generate(in Input) domain.Trace {
	nums := append([]int(nil), in.Numbers...)
	left, right := 0, len(nums)-1

	trace := domain.Trace{{
		Description: fmt.Sprintf("Place left at index 0 and right at index %d", right),
		Data:        nums,
		Variables:   domain.Variables{"left": left, "right": right, "target": in.Target},
		CodeRef:     domain.Lines(2),
	}}

	for left < right {
		sum := nums[left] + nums[right]
		vars := domain.Variables{"left": left, "right": right, "sum": sum, "target": in.Target}

		switch {
		case sum == in.Target:
			vars["finished"] = true
			vars["result"] = []int{left + 1, right + 1}
			vars["indices"] = []int{left, right}
			return append(trace, domain.Step{
				Description: fmt.Sprintf("%d + %d = %d equals the target", nums[left], nums[right], sum),
				Data:        nums,
				Variables:   vars,
				CodeRef:     domain.Lines(5, 6),
			})
		case sum < in.Target:
			vars["moveLeft"] = true
			trace = append(trace, domain.Step{
				Description: fmt.Sprintf("%d + %d = %d is below %d, move left forward", nums[left], nums[right], sum, in.Target),
				Data:        nums,
				Variables:   vars,
				CodeRef:     domain.Lines(7, 8),
			})
			left++
		default:
			vars["moveRight"] = true
			trace = append(trace, domain.Step{
				Description: fmt.Sprintf("%d + %d = %d is above %d, move right back", nums[left], nums[right], sum, in.Target),
				Data:        nums,
				Variables:   vars,
				CodeRef:     domain.Lines(9, 10),
			})
			right--
		}
	}

	return append(trace, domain.Step{
		Description: "The pointers met without finding a pair",
		Data:        nums,
		Variables:   domain.Variables{"left": left, "right": right, "target": in.Target, "finished": true, "result": []int{}},
		CodeRef:     domain.Lines(13),
	})
}
