package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// maxAliasDepth bounds alias expansion during selector resolution so a
// self-referential alias fails instead of recursing forever.
const maxAliasDepth = 10

// parseDeviceIndexes resolves a device selector into 0-based indexes
// into the device list. The selector is a comma-separated list of
// 1-based numbers, device IDs, and aliases; aliases expand recursively
// into nested selectors. Duplicates are dropped, keeping the first
// occurrence, so the selection order is exactly as typed.
func (c *Cli) parseDeviceIndexes(text string) ([]int, error) {
	indexes, err := c.appendDeviceIndexes(nil, text, 0)
	if err != nil {
		return nil, err
	}
	return uniqueInts(indexes), nil
}

func (c *Cli) appendDeviceIndexes(indexes []int, text string, depth int) ([]int, error) {
	if depth > maxAliasDepth {
		return nil, fmt.Errorf("alias recursion too deep resolving %q", text)
	}
	for _, field := range strings.Split(text, ",") {
		if alias, ok := c.config.Aliases[field]; ok {
			var err error
			indexes, err = c.appendDeviceIndexes(indexes, alias, depth+1)
			if err != nil {
				return nil, err
			}
			continue
		}
		index, err := c.parseDeviceIndex(field)
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, index)
	}
	return indexes, nil
}

// parseDeviceIndex resolves one selector element: a 1-based display
// number when it is in range, otherwise a device ID.
func (c *Cli) parseDeviceIndex(text string) (int, error) {
	if number, err := strconv.Atoi(text); err == nil {
		if number > 0 && number <= c.devices().Len() {
			return number - 1, nil
		}
	}
	if index := c.devices().IndexByDeviceID(text); index >= 0 {
		return index, nil
	}
	return 0, fmt.Errorf("not a valid device: %q", text)
}

func uniqueInts(values []int) []int {
	seen := make(map[int]bool, len(values))
	unique := make([]int, 0, len(values))
	for _, value := range values {
		if seen[value] {
			continue
		}
		seen[value] = true
		unique = append(unique, value)
	}
	return unique
}
