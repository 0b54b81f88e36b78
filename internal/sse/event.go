// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package sse

import (
	"strings"
)

// Event names consumed by htmx sse triggers in the pages.
const (
	// EventCodesChanged carries the code type whose admin list is stale.
	EventCodesChanged = "codes-changed"
	// EventNotification carries a rendered toast fragment.
	EventNotification = "notification"
)

// Heartbeat is an SSE comment that keeps idle connections open.
const Heartbeat = ": heartbeat\n\n"

// FormatEvent frames data as one SSE event. Multiline data gets one data
// field per line.
func FormatEvent(name, data string) string {
	var sb strings.Builder

	if name != "" {
		sb.WriteString("event: ")
		sb.WriteString(name)
		sb.WriteByte('\n')
	}
	for _, line := range strings.Split(data, "\n") {
		sb.WriteString("data: ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	return sb.String()
}

// CodesChanged builds the invalidation event for a code list.
func CodesChanged(codeType string) string {
	return FormatEvent(EventCodesChanged, codeType)
}
