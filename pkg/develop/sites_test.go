package develop

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rawcv/pkg/rawcv"
	"rawcv/pkg/rawfile"
)

func TestSiteStats(t *testing.T) {
	// 4x4 BGGR mosaic: B=100, G=200/300 by row, R=400.
	pix := []uint16{
		100, 200, 100, 200,
		300, 400, 300, 400,
		100, 200, 100, 200,
		300, 400, 300, 400,
	}
	bayer, err := rawcv.FromUint16(pix, 4, 4, 1, rawcv.BGGR)
	if err != nil {
		t.Fatal(err)
	}
	frame := &rawfile.Frame{Bayer: bayer, Meta: rawfile.DefaultMetadata()}

	got, err := SiteStats(frame, rawcv.StatMean)
	if err != nil {
		t.Fatal(err)
	}
	want := [4]rawcv.ChannelStats{
		{Min: 400, Max: 400, Mean: 400},
		{Min: 300, Max: 300, Mean: 300},
		{Min: 200, Max: 200, Mean: 200},
		{Min: 100, Max: 100, Mean: 100},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestSiteStatsOddSize(t *testing.T) {
	frame := flatFrame(t, 3, 4, 10, rawcv.RGGB)
	if _, err := SiteStats(frame, rawcv.StatNone); !errors.Is(err, rawcv.ErrShape) {
		t.Errorf("odd height: got %v", err)
	}
	if _, err := SiteStats(nil, rawcv.StatNone); !errors.Is(err, rawcv.ErrNilArray) {
		t.Errorf("nil: got %v", err)
	}
}
