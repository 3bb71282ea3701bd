package bybit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

// sign produces the hex HMAC-SHA256 signature for the V5 API:
// HMAC(secret, timestamp + apiKey + recvWindow + payload).
func (c *Client) sign(payload string, timestamp int64) string {
	paramStr := fmt.Sprintf("%d%s%d%s", timestamp, c.apiKey, c.recvWindow, payload)
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(paramStr))
	return hex.EncodeToString(mac.Sum(nil))
}

// buildPayload renders params into the string that is both signed and sent:
// for GET a sorted "k=v" query string, otherwise a sorted-key compact JSON
// object ("{}" when empty). Nil values and empty strings are skipped.
func buildPayload(method string, params Params) string {
	if method == http.MethodGet {
		return buildQueryPayload(params)
	}
	return buildJSONPayload(params)
}

func buildQueryPayload(params Params) string {
	if len(params) == 0 {
		return ""
	}

	keys := sortedKeys(params)
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		value := paramString(params[key])
		if value == "" {
			continue
		}
		pairs = append(pairs, key+"="+value)
	}
	return strings.Join(pairs, "&")
}

func buildJSONPayload(params Params) string {
	keys := sortedKeys(params)

	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for _, key := range keys {
		value := params[key]
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			continue
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false
		keyJSON, _ := json.Marshal(key)
		sb.Write(keyJSON)
		sb.WriteByte(':')
		sb.Write(encoded)
	}
	sb.WriteByte('}')
	return sb.String()
}

func sortedKeys(params Params) []string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// paramString flattens a parameter value for the query string. Scalars render
// plainly, structured values as compact JSON. Nil renders empty and is
// treated as absent by the caller.
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
