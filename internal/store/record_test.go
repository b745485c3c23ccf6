package store

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/store-locations/internal/jsonld"
)

func items(t *testing.T, block string) []jsonld.Item {
	t.Helper()
	var decoded any
	require.NoError(t, json.Unmarshal([]byte(block), &decoded))
	return jsonld.Normalize(decoded)
}

const fullStore = `{"@graph":[
  {"@type":"LocalBusiness","@id":"AMP-1001","name":"Ampol Woolloomooloo",
   "url":"https://www.ampol.com.au/en/nsw/woolloomooloo","telephone":"02 9000 0000",
   "address":{"streetAddress":"1 Cowper Wharf Rd","addressLocality":"Woolloomooloo",
              "postalCode":"2011","addressCountry":{"name":"Australia"}},
   "geo":{"latitude":-33.8688,"longitude":"151.2093"},
   "openingHoursSpecification":[
     {"dayOfWeek":"https://schema.org/Wednesday","opens":"06:00","closes":"22:00"},
     {"dayOfWeek":"Monday","opens":"00:00","closes":"23:59"},
     {"dayOfWeek":"http://schema.org/Sunday"}
   ]},
  {"@type":"Service","serviceType":"Car Wash"},
  {"@type":"Service","serviceType":"Fuel"},
  {"@type":"Service","serviceType":"Car Wash"},
  {"@type":"Service","serviceType":""},
  {"@type":"Service"}
]}`

func TestBuildFullRecord(t *testing.T) {
	t.Parallel()

	rec, ok := Build(items(t, fullStore))
	require.True(t, ok)

	require.Equal(t, "AMP-1001", *rec.Ref)
	require.Equal(t, "Ampol Woolloomooloo", *rec.Name)
	require.Equal(t, "https://www.ampol.com.au/en/nsw/woolloomooloo", *rec.URL)
	require.Equal(t, "02 9000 0000", *rec.Phone)
	require.Equal(t, "1 Cowper Wharf Rd", *rec.Address)
	require.Equal(t, "Woolloomooloo", *rec.Locality)
	require.Equal(t, "2011", *rec.Postcode)
	require.Equal(t, "Australia", *rec.Country)
	require.InDelta(t, -33.8688, *rec.Latitude, 1e-9)
	require.InDelta(t, 151.2093, *rec.Longitude, 1e-9)
	require.Equal(t, []string{"Car Wash", "Fuel"}, rec.Services)

	require.Len(t, rec.OpeningHours, 3)
	require.Equal(t, "Wednesday", rec.OpeningHours[0].DayOfWeek)
	require.Equal(t, "06:00", *rec.OpeningHours[0].Opens)
	require.Equal(t, "Sunday", rec.OpeningHours[2].DayOfWeek)
	require.Nil(t, rec.OpeningHours[2].Opens)
	require.Nil(t, rec.OpeningHours[2].Closes)
}

func TestBuildWithoutBusiness(t *testing.T) {
	t.Parallel()

	_, ok := Build(items(t, `[{"@type":"Service","serviceType":"Fuel"},{"@type":"Organization"}]`))
	require.False(t, ok)

	_, ok = Build(nil)
	require.False(t, ok)
}

func TestBuildFirstBusinessWins(t *testing.T) {
	t.Parallel()

	rec, ok := Build(items(t, `[{"@type":"LocalBusiness","@id":"first"},{"@type":"LocalBusiness","@id":"second"}]`))
	require.True(t, ok)
	require.Equal(t, "first", *rec.Ref)
}

func TestBuildToleratesOddShapes(t *testing.T) {
	t.Parallel()

	rec, ok := Build(items(t, `{"@type":"LocalBusiness",
	  "name": 42,
	  "address": "1 Main St",
	  "geo": {"latitude": "", "longitude": true},
	  "openingHoursSpecification": {"dayOfWeek": 3, "opens": "07:00"}}`))
	require.True(t, ok)

	require.Nil(t, rec.Ref)
	require.Nil(t, rec.Name)
	require.Nil(t, rec.Address)
	require.Nil(t, rec.Locality)
	require.Nil(t, rec.Country)
	require.Nil(t, rec.Latitude)
	require.Nil(t, rec.Longitude)
	require.Empty(t, rec.Services)
	require.Len(t, rec.OpeningHours, 1)
	require.Equal(t, "", rec.OpeningHours[0].DayOfWeek)
	require.Equal(t, "07:00", *rec.OpeningHours[0].Opens)
	require.Equal(t, "Unknown", rec.DisplayName())
	require.Equal(t, "", rec.RefKey())
}

func TestBuildKeepsZeroCoordinates(t *testing.T) {
	t.Parallel()

	rec, ok := Build(items(t, `{"@type":"LocalBusiness","geo":{"latitude":0,"longitude":"0"}}`))
	require.True(t, ok)
	require.NotNil(t, rec.Latitude)
	require.Zero(t, *rec.Latitude)
	require.NotNil(t, rec.Longitude)
	require.Zero(t, *rec.Longitude)
}

func TestRecordJSONUsesNullForMissing(t *testing.T) {
	t.Parallel()

	rec, ok := Build(items(t, `{"@type":"LocalBusiness","@id":"X"}`))
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(rec))
	require.JSONEq(t, `{
	  "ref":"X","name":null,"url":null,"phone":null,"address":null,"locality":null,
	  "postcode":null,"country":null,"latitude":null,"longitude":null,
	  "openingHours":[],"services":[]
	}`, buf.String())
}
