// Package email sends transactional email.
//
// EmailSender has two implementations: a Postmark client
// (github.com/mrz1836/postmark) for deployed environments and DevSender,
// which writes messages to a local directory. NewSender chooses between them
// from Config. HTML bodies are produced by the templ components in the
// templates subpackage.
package email
