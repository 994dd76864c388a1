package pb

import (
	"github.com/beka-birhanu/vinom-chase/game"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

var _ game.Encoder = &Protobuf{}

// Protobuf encodes snapshots as a protobuf Struct message.
type Protobuf struct{}

// MarshalSnapshot implements game.Encoder.
func (p *Protobuf) MarshalSnapshot(s game.Snapshot) ([]byte, error) {
	msg, err := structpb.NewStruct(snapshotToMap(s))
	if err != nil {
		return nil, err
	}
	return proto.Marshal(msg)
}

// UnmarshalSnapshot implements game.Encoder.
func (p *Protobuf) UnmarshalSnapshot(b []byte) (game.Snapshot, error) {
	msg := &structpb.Struct{}
	if err := proto.Unmarshal(b, msg); err != nil {
		return game.Snapshot{}, err
	}
	return snapshotFromMap(msg.AsMap())
}
