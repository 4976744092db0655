package explain

import (
	"net/url"
	"strings"
)

const (
	schemeMongo = "mongodb://"
	schemeSRV   = "mongodb+srv://"
)

// BuildURI embeds credentials into a connection string that carries none,
// and appends the authSource parameter when one is configured and the URI
// does not already name one. A URI that already has a userinfo section is
// returned untouched apart from the authSource parameter.
func BuildURI(connStr, username, password, authSource string) string {
	uri := connStr

	if username != "" && password != "" {
		creds := url.UserPassword(username, password).String()
		if !strings.Contains(uri, "@") {
			switch {
			case strings.HasPrefix(uri, schemeMongo):
				uri = schemeMongo + creds + "@" + strings.TrimPrefix(uri, schemeMongo)
			case strings.HasPrefix(uri, schemeSRV):
				uri = schemeSRV + creds + "@" + strings.TrimPrefix(uri, schemeSRV)
			default:
				uri = schemeMongo + creds + "@localhost:27017"
			}
		}

		if authSource != "" && !strings.Contains(uri, "authSource=") {
			sep := "?"
			if strings.Contains(uri, "?") {
				sep = "&"
			}
			uri += sep + "authSource=" + authSource
		}
	}

	return uri
}

// RedactURI masks the password portion of a URI's userinfo section for
// display, without needing to know the password itself.
func RedactURI(uri string) string {
	schemeEnd := strings.Index(uri, "://")
	if schemeEnd < 0 {
		return uri
	}

	rest := uri[schemeEnd+3:]
	at := strings.Index(rest, "@")
	if at < 0 {
		return uri
	}

	userinfo := rest[:at]
	colon := strings.Index(userinfo, ":")
	if colon < 0 {
		return uri
	}

	return uri[:schemeEnd+3] + userinfo[:colon] + ":***" + rest[at:]
}

// Redact masks the password inside a URI for log output.
func Redact(uri, password string) string {
	if password == "" {
		return uri
	}

	redacted := strings.ReplaceAll(uri, password, "***")

	if escaped := url.QueryEscape(password); escaped != password {
		redacted = strings.ReplaceAll(redacted, escaped, "***")
	}
	if escaped := strings.TrimPrefix(url.UserPassword("", password).String(), ":"); escaped != password {
		redacted = strings.ReplaceAll(redacted, escaped, "***")
	}

	return redacted
}
