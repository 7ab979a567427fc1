// Package meeting holds the domain types shared by every stage of the
// minutes pipeline: participants, tasks, delivery-independent sentinels, and
// the tagged Result used wherever a stage can degrade instead of failing.
//
// Participant names are compared through CanonicalName everywhere; never
// compare display-cased names directly.
package meeting
