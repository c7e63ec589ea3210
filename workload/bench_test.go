// Copyright 2024 The probemap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package workload

import (
	"testing"

	"github.com/aclements/go-perfevent/perfbench"

	"github.com/dsa-lab/probemap"
)

func BenchmarkReplay(b *testing.B) {
	for name, weights := range Presets {
		for _, dist := range []Distribution{Uniform, Zipf} {
			trace, err := Generate(name, 10000, dist, weights, 42)
			if err != nil {
				b.Fatal(err)
			}
			b.Run("workload="+trace.Name, func(b *testing.B) {
				c := perfbench.Open(b)
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					m := probemap.New(0,
						probemap.WithHash[string, string](probemap.StringHash))
					Replay(trace, m)
				}
				c.Stop()
			})
		}
	}
}

func BenchmarkGenerate(b *testing.B) {
	for _, dist := range []Distribution{Uniform, Zipf} {
		b.Run("distribution="+string(dist), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := Generate("mixed", 10000, dist, Presets["mixed"], 42); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
