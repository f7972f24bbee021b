package api

import (
	"encoding/json"
)

// The backend wraps every response in an envelope, but the paginated list
// inside it is not always in the same place: most endpoints nest the docs
// under "data", a few older ones put the payload under "message" instead.
// normalizeList tries each known shape in order of specificity and never
// fails: a body with no recognizable list is an empty page, not an error.

// envelope is the outer response wrapper.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    json.RawMessage `json:"message"`
	Success    bool            `json:"success"`
}

// pagedContainer is the mongoose-aggregate-paginate shape holding the docs.
type pagedContainer struct {
	Docs        []json.RawMessage `json:"docs"`
	Page        int               `json:"page"`
	TotalPages  int               `json:"totalPages"`
	TotalDocs   int               `json:"totalDocs"`
	HasNextPage *bool             `json:"hasNextPage"`
}

// listEnvelope is the normalized result every list endpoint reduces to.
type listEnvelope struct {
	Docs        []json.RawMessage
	Page        int
	TotalPages  int
	HasNextPage *bool
}

// listMatcher attempts to extract a listEnvelope from one envelope field.
type listMatcher func(env envelope) (listEnvelope, bool)

// Ordered from most to least specific; first structural match wins.
var listMatchers = []listMatcher{
	matchPaged(func(e envelope) json.RawMessage { return e.Data }),    // data.docs
	matchArray(func(e envelope) json.RawMessage { return e.Data }),    // data
	matchPaged(func(e envelope) json.RawMessage { return e.Message }), // message.docs
	matchArray(func(e envelope) json.RawMessage { return e.Message }), // message
}

func matchPaged(field func(envelope) json.RawMessage) listMatcher {
	return func(env envelope) (listEnvelope, bool) {
		raw := field(env)
		if len(raw) == 0 {
			return listEnvelope{}, false
		}
		var paged pagedContainer
		if err := json.Unmarshal(raw, &paged); err != nil || paged.Docs == nil {
			return listEnvelope{}, false
		}
		return listEnvelope{
			Docs:        paged.Docs,
			Page:        paged.Page,
			TotalPages:  paged.TotalPages,
			HasNextPage: paged.HasNextPage,
		}, true
	}
}

func matchArray(field func(envelope) json.RawMessage) listMatcher {
	return func(env envelope) (listEnvelope, bool) {
		raw := field(env)
		if len(raw) == 0 {
			return listEnvelope{}, false
		}
		var docs []json.RawMessage
		if err := json.Unmarshal(raw, &docs); err != nil {
			return listEnvelope{}, false
		}
		return listEnvelope{Docs: docs}, true
	}
}

// normalizeList unwraps a list response into a uniform shape. Callers treat
// "no list found" the same as an empty page.
func (c *Client) normalizeList(body []byte) listEnvelope {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		// A bare top-level array, with no envelope at all.
		var docs []json.RawMessage
		if json.Unmarshal(body, &docs) == nil {
			return listEnvelope{Docs: docs}
		}
		c.logger.Debug("unrecognized list response shape", "error", err)
		return listEnvelope{}
	}

	for _, match := range listMatchers {
		if list, ok := match(env); ok {
			return list
		}
	}

	c.logger.Debug("no list matcher succeeded", "bodyLen", len(body))
	return listEnvelope{}
}

// unwrapData returns the payload of a single-object response: "data" when
// present, else "message" when it is an object.
func unwrapData(body []byte) json.RawMessage {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return body
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data
	}
	if len(env.Message) > 0 && env.Message[0] == '{' {
		return env.Message
	}
	return nil
}

// messageText returns the envelope's human-readable message string, the only
// authoritative signal toggle endpoints provide about the resulting state.
func messageText(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	var msg string
	if json.Unmarshal(env.Message, &msg) == nil {
		return msg
	}
	return ""
}
