// Package models defines the core domain models for Split Cash.
//
// A group owns its members, expenses and settlements; an expense owns its
// splits. Splits are written once, together with their parent expense, and
// are never recomputed afterwards (editing an expense's amount deliberately
// leaves its splits untouched).
//
// Balances are derived, never stored: a member's net balance is total paid
// minus total owed across the group's expense history. Settlement
// suggestions are computed per request and never persisted; recorded
// settlements are append-only facts.
//
// Relationships use ID strings rather than pointers to avoid circular
// references. All IDs are UUIDs minted by the storage layer.
package models
