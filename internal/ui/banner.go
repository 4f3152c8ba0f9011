package ui

import (
	"strings"

	"flow/internal/version"
)

var logo = []string{
	`    ________    ____ _       __`,
	`   / ____/ /   / __ \ |     / /`,
	`  / /_  / /   / / / / | /| / / `,
	` / __/ / /___/ /_/ /| |/ |/ /  `,
	`/_/   /_____/\____/ |__/|__/   `,
}

// Banner is the REPL welcome text: the logo, the version line and a usage hint.
func Banner() string {
	var sb strings.Builder
	for _, l := range logo {
		sb.WriteString(strings.TrimRight(l, " "))
		sb.WriteByte('\n')
	}
	sb.WriteString("\n")
	sb.WriteString(version.Banner())
	sb.WriteString("\ntype :help for commands, :quit to exit\n")
	return sb.String()
}
