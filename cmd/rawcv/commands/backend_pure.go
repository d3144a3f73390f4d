//go:build purego || js

package commands

const backend = "pure go"
