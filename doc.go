// Package reqlog renders one plain-text access line per HTTP exchange.
//
// Each line follows a fixed, whitespace-tokenizable grammar:
//
//	request: [<action>:<status>] <user> <remote>[/<xff>] <host> <method> <uri> <version> <agent> <referer> <elapsed>
//
// For example:
//
//	request: [Forwarded:200] none 11.22.33.44:44894/55.66.77.88 my-domain.com HEAD /uptime-check HTTP/1.1 "Mozilla/5.0+(compatible; UptimeRobot/2.0; http://www.uptimerobot.com/)" https://my-domain.com/uptime-check 82.556µs
//
// Header-derived fields are untrusted bytes and are escaped with Token:
// values containing spaces, quotes, backslashes, control characters, or
// invalid UTF-8 are double-quoted with backslash escapes, so a consumer
// can split the line on spaces as long as it honors quoted tokens.
//
// The typical entry point is Logger.Middleware, which creates a Record per
// request, lets handlers classify the exchange through SetAction and
// SetUser, and emits the finished line to a Sink when the handler returns.
// A Record can also be driven by hand via NewRecordFromFields for stacks
// not built on net/http.
package reqlog
