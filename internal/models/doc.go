// Package models defines the persisted domain models for settleup.
//
//   - Ledger: a named set of participants sharing expenses, owned by a user
//   - Expense: one payment recorded against a ledger
//   - User: a registered account that owns ledgers
//
// Participants are identified by name strings and are not user accounts;
// anyone can appear on a ledger without signing up.
//
// Relationships are modelled with ID strings rather than pointers.
package models
