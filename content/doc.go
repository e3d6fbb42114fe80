// Package content reads content containers: a small header, an optional
// LZ4-compressed payload, a table of type readers and the serialized
// object graph those readers decode.
//
// Type readers are looked up by the serialized names the content pipeline
// writes, such as
//
//	Microsoft.Xna.Framework.Content.ListReader`1[[System.Int32, mscorlib, Version=4.0.0.0, Culture=neutral, PublicKeyToken=b77a5c561934e089]]
//
// Version, culture and key qualifiers are stripped at every nesting level
// and the remaining name is matched against registered readers under a
// fixed sequence of assembly substitutions. Reader instances are shared
// process-wide per resolved name and initialized exactly once.
//
// # Loading
//
//	m := content.NewManager("Content", content.WithDevice(dev))
//	sprite, err := content.LoadAs[*effect.Bundle](m, "effects/sprite")
//
// Custom readers are registered by generic definition name:
//
//	content.Register("Game.Content.LevelReader, Game", func([]string) (content.TypeReader, error) {
//	    return levelReader{}, nil
//	})
package content
