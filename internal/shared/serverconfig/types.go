package serverconfig

import "time"

type Config struct {
	Battle     BattleConfig     `yaml:"battle" mapstructure:"battle"`
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	JWTSecret  string           `yaml:"jwt_secret" mapstructure:"jwt_secret"`
}

type BattleConfig struct {
	TickInterval     time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`
	MapWidth         float64       `yaml:"map_width" mapstructure:"map_width"`
	MapHeight        float64       `yaml:"map_height" mapstructure:"map_height"`
	ResourceCount    int           `yaml:"resource_count" mapstructure:"resource_count"`
	StartingMoney    int           `yaml:"starting_money" mapstructure:"starting_money"`
	RebuildThreshold int           `yaml:"rebuild_threshold" mapstructure:"rebuild_threshold"` // 0 表示最便宜兵种的价格
	MaxPlayers       int           `yaml:"max_players" mapstructure:"max_players"`
	ReportBackend    string        `yaml:"report_backend" mapstructure:"report_backend"` // memory/mongodb/mysql
	RequestTimeout   time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	MatchRetention   time.Duration `yaml:"match_retention" mapstructure:"match_retention"` // 结束的对局保留多久后回收
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	// NeedSecret 为 true 时 ws 握手后对消息体做 AES 加密。
	NeedSecret bool `yaml:"need_secret" mapstructure:"need_secret"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	Collection      string `yaml:"collection" mapstructure:"collection"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
	Quiet      bool   `yaml:"quiet" mapstructure:"quiet"` // 不输出到控制台
}
