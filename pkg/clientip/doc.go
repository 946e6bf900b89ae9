// Package clientip records the address a request came from so webhook logs
// show which host delivered an event, including rejected deliveries with a
// bad signature.
//
// Proxy headers are only trustworthy when a proxy that overwrites them sits
// in front of the service; configure the list with HTTP_TRUSTED_IP_HEADERS.
package clientip
