package userbehavior

import (
	"github.com/pilosa/relkit"
)

// Record is one row of user_behavior_dataset.csv.
type Record struct {
	UserID           string `csv:"User ID"`
	DeviceModel      string `csv:"Device Model"`
	OperatingSystem  string `csv:"Operating System"`
	AppUsageTime     string `csv:"App Usage Time (min/day)"`
	ScreenOnTime     string `csv:"Screen On Time (hours/day)"`
	BatteryDrain     string `csv:"Battery Drain (mAh/day)"`
	NumAppsInstalled string `csv:"Number of Apps Installed"`
	DataUsage        string `csv:"Data Usage (MB/day)"`
	Age              string `csv:"Age"`
	Gender           string `csv:"Gender"`
	BehaviorClass    string `csv:"User Behavior Class"`
}

type row struct {
	user     User
	device   string
	os       string
	behavior Behavior
}

// decode parses every field strictly. Nothing in the dataset is optional.
func (r *Record) decode() (w row, err error) {
	u := &w.user
	if u.UserID, err = relkit.ParseInt("User ID", r.UserID); err != nil {
		return w, err
	}
	if u.Age, err = relkit.ParseInt("Age", r.Age); err != nil {
		return w, err
	}
	if u.Gender, err = relkit.ParseString("Gender", r.Gender); err != nil {
		return w, err
	}
	if w.device, err = relkit.ParseString("Device Model", r.DeviceModel); err != nil {
		return w, err
	}
	if w.os, err = relkit.ParseString("Operating System", r.OperatingSystem); err != nil {
		return w, err
	}

	b := &w.behavior
	if b.AppUsageTime, err = relkit.ParseFloat("App Usage Time (min/day)", r.AppUsageTime); err != nil {
		return w, err
	}
	if b.ScreenOnTime, err = relkit.ParseFloat("Screen On Time (hours/day)", r.ScreenOnTime); err != nil {
		return w, err
	}
	if b.BatteryDrain, err = relkit.ParseFloat("Battery Drain (mAh/day)", r.BatteryDrain); err != nil {
		return w, err
	}
	if b.NumAppsInstalled, err = relkit.ParseInt("Number of Apps Installed", r.NumAppsInstalled); err != nil {
		return w, err
	}
	if b.DataUsage, err = relkit.ParseFloat("Data Usage (MB/day)", r.DataUsage); err != nil {
		return w, err
	}
	b.BehaviorClass, err = relkit.ParseInt("User Behavior Class", r.BehaviorClass)
	return w, err
}
