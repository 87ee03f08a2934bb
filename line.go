package reqlog

import (
	"strconv"
	"strings"
)

// userSentinel is rendered when no user was ever set on a record.
const userSentinel = "none"

// assemble renders the fixed-grammar access line:
//
//	request: [<action>:<status>] <user> <remote>[/<xff>] <host> <method> <uri> <version> <agent> <referer> <elapsed>
//
// The action and its colon are omitted when no action was set. Method, URI,
// and version are protocol-constrained to safe characters and emitted bare;
// every header-derived field goes through Token.
func assemble(r *Record) string {
	var sb strings.Builder
	sb.WriteString("request: [")
	if r.hasAction {
		sb.WriteString(r.action)
		sb.WriteByte(':')
	}
	sb.WriteString(strconv.Itoa(r.status))
	sb.WriteString("] ")

	user := userSentinel
	if r.hasUser {
		user = r.user
	}
	sb.WriteString(TokenString(user))
	sb.WriteByte(' ')
	sb.WriteString(composeRemote(r.fields.RemoteAddr, r.fields.ForwardedFor))
	sb.WriteByte(' ')
	sb.WriteString(Token(r.fields.Host))
	sb.WriteByte(' ')
	sb.WriteString(r.fields.Method)
	sb.WriteByte(' ')
	sb.WriteString(r.fields.URI)
	sb.WriteByte(' ')
	sb.WriteString(r.fields.Version)
	sb.WriteByte(' ')
	sb.WriteString(Token(r.fields.Agent))
	sb.WriteByte(' ')
	sb.WriteString(Token(r.fields.Referer))
	sb.WriteByte(' ')
	sb.WriteString(r.elapsed.String())
	return sb.String()
}
