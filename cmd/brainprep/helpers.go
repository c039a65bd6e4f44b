package main

import (
	"fmt"
	"strings"
)

// previewCap limits how many unmatched IDs a summary lists before eliding.
const previewCap = 12

func previewIDs(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	if len(ids) <= previewCap {
		return strings.Join(ids, ", ")
	}
	shown := strings.Join(ids[:previewCap], ", ")
	return fmt.Sprintf("%s, ... (%d more)", shown, len(ids)-previewCap)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
