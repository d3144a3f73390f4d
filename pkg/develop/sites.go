package develop

import (
	"fmt"

	"rawcv/pkg/rawcv"
	"rawcv/pkg/rawfile"
)

// SiteNames labels the channels returned by SiteStats.
var SiteNames = [4]string{"R", "G1", "G2", "B"}

// SiteStats canonicalizes the frame's mosaic to RGGB, packs it into one
// plane per color site and returns statistics for R, G1, G2 and B. The
// mosaic must have even dimensions.
func SiteStats(frame *rawfile.Frame, flags rawcv.StatFlags) ([4]rawcv.ChannelStats, error) {
	var out [4]rawcv.ChannelStats
	if frame == nil || frame.Bayer == nil {
		return out, fmt.Errorf("site stats: %w", rawcv.ErrNilArray)
	}
	bayer := frame.Bayer
	if err := rawcv.ToRGGB(bayer); err != nil {
		return out, fmt.Errorf("site stats: %w", err)
	}
	packed, err := rawcv.NewArray(bayer.Height()/2, bayer.Width()/2, 4, rawcv.U16, rawcv.RGGB)
	if err != nil {
		return out, err
	}
	if err := rawcv.Pack(bayer, packed); err != nil {
		return out, fmt.Errorf("site stats: %w", err)
	}
	st, err := rawcv.Stats(packed, flags)
	if err != nil {
		return out, fmt.Errorf("site stats: %w", err)
	}
	copy(out[:], st)
	return out, nil
}
