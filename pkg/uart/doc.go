// Package uart models a fixed 8-N-1 UART transceiver one clock tick at a time.
package uart

// The transceiver is a pair of independent state machines, each paced by
// its own bit-tick generator derived from a shared clock divisor.
//
// Every state machine is a value: Step takes the current state plus the
// inputs of one tick and returns the next state together with the outputs
// of the tick being evaluated. Nothing blocks and nothing is shared, so a
// Transceiver can be driven from a test loop, a simulation bench or a
// real-time control loop alike.
//
// Line levels are bools: true is high (mark, idle), false is low (space).
