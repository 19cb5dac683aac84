// Package proposalvoting implements proposal voting inside the
// community-governance context.
//
// The module owns proposal creation, weighted vote casting and tallying for
// residential buildings. Building visibility and apartment ownership are
// read from the property registry through ports; the module never writes
// them. State changes are published through an outbox relayed by workers.
package proposalvoting
