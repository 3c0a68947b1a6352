// Package events lets services announce committed state changes to other
// in-process components, such as caches, without depending on them.
package events
