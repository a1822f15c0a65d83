package config

import (
	"encoding/json"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// A Diff is the difference between two rig configs, left and right,
// where left is usually old and right is new.
type Diff struct {
	Left, Right *RigConfig
	Equal       bool
	PrettyDiff  string
}

// DiffConfigs returns the difference between two rig configs. Where the configs were read from does
// not matter.
func DiffConfigs(left, right *RigConfig) (*Diff, error) {
	diff := &Diff{
		Left:  left,
		Right: right,
		Equal: cmp.Equal(left, right, cmpopts.IgnoreFields(RigConfig{}, "ConfigFilePath")),
	}
	if diff.Equal {
		return diff, nil
	}
	var err error
	if diff.PrettyDiff, err = prettyDiff(left, right); err != nil {
		return nil, err
	}
	return diff, nil
}

func prettyDiff(left, right *RigConfig) (string, error) {
	leftMd, err := json.MarshalIndent(left, "", " ")
	if err != nil {
		return "", err
	}
	rightMd, err := json.MarshalIndent(right, "", " ")
	if err != nil {
		return "", err
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(leftMd), string(rightMd), true)
	filteredDiffs := make([]diffmatchpatch.Diff, 0, len(diffs))
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			continue
		}
		filteredDiffs = append(filteredDiffs, d)
	}
	return dmp.DiffPrettyText(filteredDiffs), nil
}

// String returns a pretty version of the diff.
func (diff *Diff) String() string {
	return diff.PrettyDiff
}
