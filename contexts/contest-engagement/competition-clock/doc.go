// Package competitionclock owns competition schedules inside the
// contest-engagement context.
//
// It stores phases and promotional double-credit windows per competition and
// answers, for any instant, which phase is active and which vote multiplier
// applies. Answers are computed synchronously from the stored schedule and the
// supplied instant; there is no manual override.
package competitionclock
