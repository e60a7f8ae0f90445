package civil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const london = "Europe/London"

func TestToEpoch(t *testing.T) {
	// 2020-03-28 12:34:56 (GMT) -> 2020-03-28T12:34:56Z -> 1585398896
	// 2020-03-29 12:34:56 (BST) -> 2020-03-29T11:34:56Z -> 1585481696
	gmt := Timestamp{Year: 2020, Month: time.March, Day: 28, Hour: 12, Minute: 34, Second: 56}
	bst := Timestamp{Year: 2020, Month: time.March, Day: 29, Hour: 12, Minute: 34, Second: 56}

	tests := []struct {
		name     string
		ts       Timestamp
		zone     string
		expected int64
	}{
		{"embedded zone GMT", gmt.In(london), "", 1585398896},
		{"embedded zone BST", bst.In(london), "", 1585481696},
		{"explicit zone GMT", gmt, london, 1585398896},
		{"explicit zone BST", bst, london, 1585481696},
		{"embedded zone wins", bst.In(london), UTC, 1585481696},
		{"utc", gmt, UTC, 1585398896},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToEpoch(tt.ts, tt.zone)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestToEpochMissingZone(t *testing.T) {
	ts := Timestamp{Year: 2020, Month: time.March, Day: 28, Hour: 12}

	_, err := ToEpoch(ts, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestToEpochInvalidFields(t *testing.T) {
	_, err := ToEpoch(Timestamp{Year: 2021, Month: time.February, Day: 30}, UTC)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ToEpoch(Timestamp{Year: 2021, Month: time.March, Day: 1, Hour: 24}, UTC)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFromEpoch(t *testing.T) {
	utc, err := FromEpoch(1585398896, "")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, utc.Location())
	assert.True(t, utc.Equal(time.Date(2020, 3, 28, 12, 34, 56, 0, time.UTC)))

	local, err := FromEpoch(1585481696, london)
	require.NoError(t, err)
	assert.Equal(t, 12, local.Hour())
	assert.True(t, local.IsDST())
	_, offset := local.Zone()
	assert.Equal(t, 3600, offset)

	_, err = FromEpoch(0, "Mars/Olympus_Mons")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFromEpochRoundTrip(t *testing.T) {
	for _, sec := range []int64{0, 1585396800, 1603589400, -86400, 4102444800} {
		at, err := FromEpoch(sec, london)
		require.NoError(t, err)

		back, err := ToEpoch(FromTime(at), "")
		require.NoError(t, err)

		// Overlap readings resolve to standard time, so only compare outside folds.
		if !at.IsDST() {
			assert.Equal(t, sec, back, "round trip of %d", sec)
		}
	}
}

func TestLocalizeSpringForwardGap(t *testing.T) {
	// 01:30 on 2020-03-29 never happens in London.
	ts := Timestamp{Year: 2020, Month: time.March, Day: 29, Hour: 1, Minute: 30}

	std, err := Localize(ts, london, Standard)
	require.NoError(t, err)
	assert.Equal(t, int64(1585445400), std.Unix())

	dst, err := Localize(ts, london, Daylight)
	require.NoError(t, err)
	assert.Equal(t, int64(1585441800), dst.Unix())

	_, err = Localize(ts, london, Strict)
	assert.ErrorIs(t, err, ErrNonexistentTime)
}

func TestLocalizeFallBackOverlap(t *testing.T) {
	// 01:30 on 2020-10-25 happens twice in London.
	ts := Timestamp{Year: 2020, Month: time.October, Day: 25, Hour: 1, Minute: 30}

	std, err := Localize(ts, london, Standard)
	require.NoError(t, err)
	assert.Equal(t, int64(1603589400), std.Unix())
	assert.False(t, std.IsDST())

	dst, err := Localize(ts, london, Daylight)
	require.NoError(t, err)
	assert.Equal(t, int64(1603585800), dst.Unix())
	assert.True(t, dst.IsDST())

	_, err = Localize(ts, london, Strict)
	assert.ErrorIs(t, err, ErrAmbiguousTime)
}

func TestLocalizeUnambiguousIgnoresPolicy(t *testing.T) {
	ts := Timestamp{Year: 2020, Month: time.July, Day: 1, Hour: 9}
	for _, policy := range []Disambiguation{Standard, Daylight, Strict} {
		got, err := Localize(ts, london, policy)
		require.NoError(t, err, policy.String())
		assert.Equal(t, int64(1593590400), got.Unix(), policy.String())
	}
}

func TestParseLocal(t *testing.T) {
	ts, err := ParseLocal("2020-03-28T12:34:56")
	require.NoError(t, err)
	assert.Equal(t, Timestamp{Year: 2020, Month: time.March, Day: 28, Hour: 12, Minute: 34, Second: 56}, ts)

	spaced, err := ParseLocal("2020-03-28 12:34:56")
	require.NoError(t, err)
	assert.Equal(t, ts, spaced)

	for _, bad := range []string{"", "2020-03-28", "28/03/2020 12:00:00", "2020-13-01T00:00:00"} {
		_, err := ParseLocal(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestTimestampString(t *testing.T) {
	ts := Timestamp{Year: 2020, Month: time.March, Day: 28, Hour: 12}
	assert.Equal(t, "2020-03-28T12:00:00", ts.String())
	assert.Equal(t, "2020-03-28T12:00:00 (Europe/London)", ts.In(london).String())
}

func TestZonesConcurrentLoad(t *testing.T) {
	zones := NewZones()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loc, err := zones.Load(london)
			assert.NoError(t, err)
			assert.Equal(t, london, loc.String())
		}()
	}
	wg.Wait()

	_, err := zones.Load("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
