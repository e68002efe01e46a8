// SPDX-License-Identifier: GPL-3.0-or-later

package mailq

type State int

const (
	StateInitializing State = iota
	StatePrivilegeDropped
	StateEnvironmentSanitized
	StateEnumerating
	StateEnumerated
	StateQuerying
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StatePrivilegeDropped:
		return "privilege dropped"
	case StateEnvironmentSanitized:
		return "environment sanitized"
	case StateEnumerating:
		return "enumerating"
	case StateEnumerated:
		return "enumerated"
	case StateQuerying:
		return "querying"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
