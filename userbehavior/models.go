package userbehavior

import (
	"github.com/pilosa/relkit"
)

// Tables of the user behavior schema, parents first.
var (
	Users = &relkit.Table{
		Name: "users",
		Key:  "user_id",
		Columns: []relkit.Column{
			{Name: "user_id", Type: relkit.Int, PrimaryKey: true},
			{Name: "age", Type: relkit.Int, NotNull: true},
			{Name: "gender", Type: relkit.Text, NotNull: true},
		},
	}
	Devices = &relkit.Table{
		Name:    "devices",
		Key:     "device_id",
		AutoKey: true,
		Columns: []relkit.Column{
			{Name: "device_id", Type: relkit.Int, PrimaryKey: true},
			{Name: "device_model", Type: relkit.Text, NotNull: true},
		},
	}
	OperatingSystems = &relkit.Table{
		Name:    "os",
		Key:     "os_id",
		AutoKey: true,
		Columns: []relkit.Column{
			{Name: "os_id", Type: relkit.Int, PrimaryKey: true},
			{Name: "operating_system", Type: relkit.Text, NotNull: true},
		},
	}
	UserBehaviors = &relkit.Table{
		Name:    "user_behaviors",
		Key:     "behavior_id",
		AutoKey: true,
		Columns: []relkit.Column{
			{Name: "behavior_id", Type: relkit.Int, PrimaryKey: true},
			{Name: "user_id", Type: relkit.Int, NotNull: true, References: "users(user_id)"},
			{Name: "device_id", Type: relkit.Int, NotNull: true, References: "devices(device_id)"},
			{Name: "os_id", Type: relkit.Int, NotNull: true, References: "os(os_id)"},
			{Name: "app_usage_time", Type: relkit.Float, NotNull: true},
			{Name: "screen_on_time", Type: relkit.Float, NotNull: true},
			{Name: "battery_drain", Type: relkit.Float, NotNull: true},
			{Name: "num_apps_installed", Type: relkit.Int, NotNull: true},
			{Name: "data_usage", Type: relkit.Float, NotNull: true},
			{Name: "behavior_class", Type: relkit.Int, NotNull: true},
		},
	}
)

// Tables returns the schema in dependency order.
func Tables() []*relkit.Table {
	return []*relkit.Table{Users, Devices, OperatingSystems, UserBehaviors}
}

// User is keyed by the dataset's User ID.
type User struct {
	UserID int64
	Age    int64
	Gender string
}

func (u *User) Table() *relkit.Table  { return Users }
func (u *User) Values() []interface{} { return []interface{}{u.UserID, u.Age, u.Gender} }

// Device is a phone model, deduplicated by model name.
type Device struct {
	id    int64
	Model string
}

func (d *Device) Table() *relkit.Table  { return Devices }
func (d *Device) Values() []interface{} { return []interface{}{d.Model} }
func (d *Device) ID() int64             { return d.id }
func (d *Device) SetID(id int64)        { d.id = id }

// OS is an operating system, deduplicated by name.
type OS struct {
	id   int64
	Name string
}

func (o *OS) Table() *relkit.Table  { return OperatingSystems }
func (o *OS) Values() []interface{} { return []interface{}{o.Name} }
func (o *OS) ID() int64             { return o.id }
func (o *OS) SetID(id int64)        { o.id = id }

// Behavior is one user's daily usage profile.
type Behavior struct {
	deviceID int64
	osID     int64

	User             *User
	Device           *Device
	OS               *OS
	AppUsageTime     float64
	ScreenOnTime     float64
	BatteryDrain     float64
	NumAppsInstalled int64
	DataUsage        float64
	BehaviorClass    int64
}

func (b *Behavior) Table() *relkit.Table { return UserBehaviors }
func (b *Behavior) Values() []interface{} {
	return []interface{}{
		b.User.UserID, b.deviceID, b.osID,
		b.AppUsageTime, b.ScreenOnTime, b.BatteryDrain,
		b.NumAppsInstalled, b.DataUsage, b.BehaviorClass,
	}
}

func (b *Behavior) BindKeys() (err error) {
	if b.deviceID, err = relkit.KeyOf(b.Device); err != nil {
		return err
	}
	b.osID, err = relkit.KeyOf(b.OS)
	return err
}
