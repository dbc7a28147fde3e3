//go:build debug

package assert

const development = true
