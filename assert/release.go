//go:build !debug

package assert

const development = false
