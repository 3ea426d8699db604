package twitter

import (
	"encoding/json"
)

// objectDecoder turns raw datagrams into Status values and hands them to a
// delegate. It never returns an error to its caller: malformed JSON and
// unrecognized object shapes are logged and discarded, per spec.
//
// Grounded on original_source/twittytwister/streaming.py's
// TwitterStream.datagramReceived: parse JSON, check for a "text" key,
// materialize a Status or log "unsupported" and drop it.
type objectDecoder struct {
	log      Logger
	metrics  *Metrics
	delegate func(*Status)
}

func newObjectDecoder(log Logger, metrics *Metrics, delegate func(*Status)) *objectDecoder {
	if log == nil {
		log = nopLogger{}
	}
	return &objectDecoder{log: log, metrics: metrics, delegate: delegate}
}

// Decode parses one datagram. Parse errors and unsupported shapes are
// logged and swallowed; a Status is only delivered when parsing succeeds
// and the object carries a "text" key.
func (d *objectDecoder) Decode(datagram []byte) {
	var probe map[string]interface{}
	if err := json.Unmarshal(datagram, &probe); err != nil {
		d.log.Warnf("twitter: invalid JSON in stream: %v (payload=%q)", err, datagram)
		d.metrics.DecodeError("invalid_json")
		return
	}

	if _, ok := probe["text"]; !ok {
		d.log.Infof("twitter: unsupported object %v", probe)
		d.metrics.DecodeError("unsupported_object")
		return
	}

	status := new(Status)
	if err := json.Unmarshal(datagram, status); err != nil {
		d.log.Warnf("twitter: failed to decode status: %v (payload=%q)", err, datagram)
		d.metrics.DecodeError("status_unmarshal")
		return
	}

	if d.delegate != nil {
		d.deliver(status)
	}
}

// deliver invokes the delegate, recovering from and logging any panic so
// a misbehaving delegate never breaks the stream.
func (d *objectDecoder) deliver(status *Status) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Errorf("twitter: delegate panicked on status %d: %v", status.ID, r)
		}
	}()
	d.delegate(status)
}
