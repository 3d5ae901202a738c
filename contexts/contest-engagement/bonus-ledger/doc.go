// Package bonusledger owns bonus task catalogs and the award ledger inside the
// contest-engagement context.
//
// A contestant earns each task's points at most once. The award record, the
// bonus vote event and the contestant total commit in one transaction, and the
// unique (contestant, task) key makes repeated or concurrent awards no-ops
// that report "already-awarded".
package bonusledger
