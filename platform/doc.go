// Package platform provides the OS-facing implementations behind the
// coordinator's ports: command execution, process signalling, netlink
// interface probing, devpts preparation, and the hardware event sources
// (uevent plug detection, suspend/resume signals).
//
// Linux is the production target; other platforms get stubs so the
// daemon still builds for development.
package platform
