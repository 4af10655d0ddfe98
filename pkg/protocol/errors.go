package protocol

import "errors"

// ErrUnknownPacket is wrapped into the error returned by Decode when no
// case in the given state recognizes the packet id. Callers that want to
// tolerate unknown packets should prefer the Unknown variant Decode
// returns instead of treating every unrecognized id as fatal; this
// sentinel exists for cases (handshake, status, login) where an unknown
// id really is a protocol violation.
var ErrUnknownPacket = errors.New("protocol: unknown packet id for state")

// ErrWrongPacketType is returned by Encode when asked to encode a Packet
// variant that has no clientbound wire form (a serverbound-only variant).
var ErrWrongPacketType = errors.New("protocol: packet type has no clientbound encoding")
