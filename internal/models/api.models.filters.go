package models

// SweepFilters selects the subset returned by the sweep listing. Presence of
// the latest parameter selects the latest subset whatever its value.
type SweepFilters struct {
	Latest bool
}

// DownloadQuery is the query string of an artifact download.
type DownloadQuery struct {
	ID int64 `schema:"id,required"`
}

// UploadForm carries the non-file fields of a sweep upload.
type UploadForm struct {
	DeviceName string `schema:"device_name,required"`
	HubTime    string `schema:"hub_time,required"`
	SensorTime string `schema:"sensor_time"`
	MacAddress string `schema:"mac_address"`
	RSSI       string `schema:"rssi"`
}

// DisplayForm is the console's show-all toggle.
type DisplayForm struct {
	ShowAll bool `schema:"show_all"`
}
