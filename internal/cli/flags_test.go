package cli

import (
	"testing"

	"spinframes/internal/model"
)

func TestApplyPositional(t *testing.T) {
	base := model.DefaultExtractOptions()
	tests := []struct {
		name    string
		args    []string
		slots   []Slot
		want    func(o model.ExtractOptions) bool
		wantErr bool
	}{
		{
			name:  "no arguments keeps defaults",
			slots: ExtractSlots,
			want: func(o model.ExtractOptions) bool {
				return o.VideoPath == "public/videos/product-spin.mp4" && o.OutDir == "public" &&
					o.TotalFrames == 60 && o.Format == model.FormatWebP && o.Quality == 85
			},
		},
		{
			name:  "all five",
			args:  []string{"in.mov", "out", "36", "PNG", "70"},
			slots: ExtractSlots,
			want: func(o model.ExtractOptions) bool {
				return o.VideoPath == "in.mov" && o.OutDir == "out" && o.TotalFrames == 36 &&
					o.Format == "PNG" && o.Quality == 70
			},
		},
		{
			name:  "partial",
			args:  []string{"in.mov", "frames"},
			slots: ExtractSlots,
			want: func(o model.ExtractOptions) bool {
				return o.VideoPath == "in.mov" && o.OutDir == "frames" && o.TotalFrames == 60
			},
		},
		{
			name:  "plan order",
			args:  []string{"in.mov", "120"},
			slots: PlanSlots,
			want: func(o model.ExtractOptions) bool {
				return o.VideoPath == "in.mov" && o.TotalFrames == 120 && o.OutDir == "public"
			},
		},
		{name: "bad frame count", args: []string{"a", "b", "sixty"}, slots: ExtractSlots, wantErr: true},
		{name: "bad quality", args: []string{"a", "b", "60", "webp", "high"}, slots: ExtractSlots, wantErr: true},
		{name: "too many", args: []string{"a", "b", "c"}, slots: PlanSlots, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyPositional(base, tt.args, tt.slots)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyPositional() error = %v", err)
			}
			if !tt.want(got) {
				t.Errorf("ApplyPositional() = %+v", got)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	o := model.DefaultExtractOptions()
	o.Format = "JPEG"
	o.OutDir = "public/./frames/"
	got, err := Normalize(o)
	if err != nil {
		t.Fatal(err)
	}
	if got.Format != model.FormatJPEG || got.OutDir != "public/frames" {
		t.Errorf("Normalize() = %+v", got)
	}

	o.Quality = 250
	if _, err := Normalize(o); err != nil {
		t.Errorf("quality is passed through unvalidated, got %v", err)
	}

	bad := []func(o *model.ExtractOptions){
		func(o *model.ExtractOptions) { o.Format = "gif" },
		func(o *model.ExtractOptions) { o.TotalFrames = 0 },
		func(o *model.ExtractOptions) { o.TotalFrames = 1001 },
		func(o *model.ExtractOptions) { o.Prefix = "" },
		func(o *model.ExtractOptions) { o.LongSide = -5 },
	}
	for i, mod := range bad {
		o := model.DefaultExtractOptions()
		mod(&o)
		if _, err := Normalize(o); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}
