// Package notifier delivers status notifications to the configured chat.
//
// Delivery is synchronous and attempted exactly once per call: the polling
// loop decides what to do with a failure. Sends are throttled by a token
// bucket so a burst of iterations cannot trip the Bot API flood limits.
//
// # Transport
//
// The notifier delegates delivery to a transport.Sender (the Telegram adapter
// in production), which keeps this package free of platform details.
package notifier
