// Package sysaction implements the system action protocol used by the ticket
// distributor.
//
// Every transaction of the ticket chain is a system action: its tx.Data field
// is a JSON-encoded SysAction message. The state processor hands the data to
// a Registry which dispatches it to the handler that claims the action kind.
package sysaction

import "encoding/json"

// ActionKind identifies the type of system action.
type ActionKind string

const (
	// Operator actions
	ActionAddCode            ActionKind = "TICKET_ADD_CODE"
	ActionAddCodes           ActionKind = "TICKET_ADD_CODES"
	ActionResetCounters      ActionKind = "TICKET_RESET_COUNTERS"
	ActionDistributeStandard ActionKind = "TICKET_DISTRIBUTE_STANDARD"
	ActionDistributeTop      ActionKind = "TICKET_DISTRIBUTE_TOP"
	ActionSetOperator        ActionKind = "TICKET_SET_OPERATOR"

	// User actions
	ActionRegisterStandard ActionKind = "TICKET_REGISTER_STANDARD"
	ActionRegisterTop      ActionKind = "TICKET_REGISTER_TOP"
)

// SysAction is the top-level envelope stored in tx.Data for system action txs.
type SysAction struct {
	Action  ActionKind      `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
