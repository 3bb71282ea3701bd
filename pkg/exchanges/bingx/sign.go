package bingx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// sign produces the hex HMAC-SHA256 signature over the prepared payload.
func sign(apiSecret, payload string) string {
	mac := hmac.New(sha256.New, []byte(apiSecret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// buildSignaturePayload renders the exact string BingX signs for requests
// carrying a JSON body: the timestamp joins the params and sorts in with the
// rest of the keys. An existing timestamp param is never overwritten.
func buildSignaturePayload(params Params, timestamp int64) string {
	pairs := sortedPairs(params)
	if _, ok := params["timestamp"]; !ok {
		pairs = append(pairs, paramPair{key: "timestamp", value: strconv.FormatInt(timestamp, 10)})
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })
	}

	var sb strings.Builder
	for i, pair := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(pair.key)
		sb.WriteByte('=')
		sb.WriteString(pair.value)
	}
	return sb.String()
}

// buildQueryPayload renders both the signature payload and the query string
// for GET requests, with the timestamp appended after the sorted pairs. The
// two differ only when some value carries an embedded JSON structure: the
// query string then percent-encodes every value while the signature stays
// plain.
func buildQueryPayload(params Params, timestamp int64) (payload, query string) {
	pairs := sortedPairs(params)

	containsStruct := false
	for _, pair := range pairs {
		if strings.ContainsAny(pair.value, "{[") {
			containsStruct = true
			break
		}
	}

	var sig, urlq strings.Builder
	for i, pair := range pairs {
		if i > 0 {
			sig.WriteByte('&')
			urlq.WriteByte('&')
		}
		sig.WriteString(pair.key)
		sig.WriteByte('=')
		sig.WriteString(pair.value)

		urlq.WriteString(pair.key)
		urlq.WriteByte('=')
		if containsStruct {
			urlq.WriteString(url.QueryEscape(pair.value))
		} else {
			urlq.WriteString(pair.value)
		}
	}

	ts := strconv.FormatInt(timestamp, 10)
	if sig.Len() > 0 {
		sig.WriteString("&timestamp=")
		urlq.WriteString("&timestamp=")
	} else {
		sig.WriteString("timestamp=")
		urlq.WriteString("timestamp=")
	}
	sig.WriteString(ts)
	urlq.WriteString(ts)

	return sig.String(), urlq.String()
}

type paramPair struct {
	key   string
	value string
}

func sortedPairs(params Params) []paramPair {
	pairs := make([]paramPair, 0, len(params))
	for key, value := range params {
		pairs = append(pairs, paramPair{key: key, value: paramString(value)})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })
	return pairs
}

// paramString flattens a parameter value: scalars render plainly, structured
// values as compact JSON, nil as empty.
func paramString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case json.Number:
		return value.String()
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
