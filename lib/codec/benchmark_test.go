package codec

import (
	"testing"

	"github.com/ValentinKolb/hKV/lib/node"
)

func BenchmarkEncode(b *testing.B) {
	docs := testDocuments()
	for name, factory := range testCodecs {
		c := factory()
		root := node.FromMap(docs["Nested"])
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := c.Encode(root); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	docs := testDocuments()
	for name, factory := range testCodecs {
		c := factory()
		data, err := c.Encode(node.FromMap(docs["Lists"]))
		if err != nil {
			b.Fatal(err)
		}
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := c.Decode(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
