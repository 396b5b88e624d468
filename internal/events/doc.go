// Package events publishes application status changes.
//
// Each applied transition becomes a structured-mode CloudEvents JSON envelope
// of type com.nriassist.application.transitioned, keyed by application id so
// a topic partition sees one application's changes in order. KafkaPublisher
// writes them with segmentio/kafka-go; NopPublisher is used when events are
// disabled. Publishing is best effort: callers log failures and never roll a
// transition back because of them.
package events
