// Copyright 2025 Ian Lewis
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

package btreeidx

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChooseFanout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		indexSize int
		want      uint32
	}{
		{name: "empty index clamps to minimum", indexSize: 0, want: MinFanout},
		{name: "small index clamps to minimum", indexSize: 10, want: MinFanout},
		{name: "worked example from the format", indexSize: 5000, want: 71},
		{name: "huge index clamps to maximum", indexSize: 100_000_000, want: MaxFanout},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got := ChooseFanout(test.indexSize)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("ChooseFanout(%d) diff (-want +got):\n%s", test.indexSize, diff)
			}
			if got < MinFanout || got > MaxFanout {
				t.Errorf("ChooseFanout(%d) = %d, out of [%d, %d]", test.indexSize, got, MinFanout, MaxFanout)
			}
		})
	}
}
