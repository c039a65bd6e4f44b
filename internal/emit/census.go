package emit

import "path/filepath"

// GroupCount is the number of copied gray matter segmentations of one group.
type GroupCount struct {
	Group string
	Count int
}

// CountCopied tallies the rp1_*.nii files per group directory under the
// output root. Groups without a rp1 release directory count as zero.
func CountCopied(outputRoot string) ([]GroupCount, error) {
	groups, err := outputGroups(outputRoot)
	if err != nil {
		return nil, err
	}
	counts := make([]GroupCount, 0, len(groups))
	for _, group := range groups {
		ids, err := copiedSubjects(filepath.Join(outputRoot, group))
		if err != nil {
			return nil, err
		}
		counts = append(counts, GroupCount{Group: group, Count: len(ids)})
	}
	return counts, nil
}
