// Package twosum traces the one-pass hash map solution of LeetCode 1.
package twosum

import (
	"fmt"
	"maps"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/driver"
)

const ID = "two-sum"

// Input is the editable problem input.
type Input struct {
	Nums   []int `json:"nums" yaml:"nums" mapstructure:"nums"`
	Target int   `json:"target" yaml:"target" mapstructure:"target"`
}

var Fields = []domain.InputField{
	{Key: "nums", Label: "Array nums", Type: domain.FieldArray, Placeholder: "2,7,11,15"},
	{Key: "target", Label: "Target", Type: domain.FieldNumber, Placeholder: "9"},
}

var TestCases = []domain.TestCase[Input]{
	{Label: "Example 1", Value: Input{Nums: []int{2, 7, 11, 15}, Target: 9}},
	{Label: "Example 2", Value: Input{Nums: []int{3, 2, 4}, Target: 6}},
	{Label: "Example 3", Value: Input{Nums: []int{3, 3}, Target: 6}},
	{Label: "No solution", Value: Input{Nums: []int{1, 2, 3}, Target: 100}},
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

// Generate records every lookup and insert of the hash map pass.
// Data is the input array; the map snapshot lives in the "map" variable.
func Generate(in Input) domain.Trace {
	nums := append([]int(nil), in.Nums...)
	seen := map[int]int{}

	trace := domain.Trace{{
		Description: "Create an empty hash map from value to index",
		Data:        nums,
		Variables:   domain.Variables{"i": 0, "map": map[int]int{}, "target": in.Target},
		CodeRef:     domain.Lines(2),
	}}

	for i, num := range nums {
		complement := in.Target - num
		j, found := seen[complement]

		vars := domain.Variables{
			"i":          i,
			"num":        num,
			"complement": complement,
			"map":        maps.Clone(seen),
			"target":     in.Target,
			"found":      found,
		}
		if !found {
			trace = append(trace, domain.Step{
				Description: fmt.Sprintf("complement = %d - %d = %d is not in the map", in.Target, num, complement),
				Data:        nums,
				Variables:   vars,
				CodeRef:     domain.Lines(4, 5),
			})
			seen[num] = i
			trace = append(trace, domain.Step{
				Description: fmt.Sprintf("Store %d → %d in the map", num, i),
				Data:        nums,
				Variables:   domain.Variables{"i": i, "num": num, "map": maps.Clone(seen), "target": in.Target},
				CodeRef:     domain.Lines(8),
			})
			continue
		}

		trace = append(trace, domain.Step{
			Description: fmt.Sprintf("complement = %d - %d = %d was seen at index %d", in.Target, num, complement, j),
			Data:        nums,
			Variables:   vars,
			CodeRef:     domain.Lines(4, 5),
		})
		done := vars.Clone()
		done["result"] = []int{j, i}
		trace = append(trace, domain.Step{
			Description: fmt.Sprintf("Found it: nums[%d] + nums[%d] = %d", j, i, in.Target),
			Data:        nums,
			Variables:   done,
			CodeRef:     domain.Lines(6),
		})
		return trace
	}

	return append(trace, domain.Step{
		Description: "No pair adds up to the target",
		Data:        nums,
		Variables:   domain.Variables{"map": maps.Clone(seen), "target": in.Target, "result": []int{}},
		CodeRef:     domain.Lines(10),
	})
}
