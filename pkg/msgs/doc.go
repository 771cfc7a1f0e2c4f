// Package msgs provides the planner protocol and all message schemas.
package msgs

// The planner protocol is communicated between a planner node and its
// clients (behaviour planners, shells, monitors).
//
// Commands are sent by clients and replied by the node using the same
// sequence number. Events are emitted by the node, e.g. SpeedCommand on
// every speed command interval.
