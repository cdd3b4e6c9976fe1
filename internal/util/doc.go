// Package util holds outbound HTTP helpers shared by the source providers
// and the JSON proxy.
package util
