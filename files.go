/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"strconv"
)

const sizePrefixes = "kMGTPE"

func humanReadableSize(bytes int64) string {
	const unit = 1000
	if bytes < unit {
		return strconv.FormatInt(bytes, 10) + " B"
	}

	v := float64(bytes)
	exp := -1
	for v >= unit && exp < len(sizePrefixes)-1 {
		v /= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", v, sizePrefixes[exp])
}
