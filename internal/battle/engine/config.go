package engine

// Config 是一局对战的数值参数。一般从 DefaultConfig 出发按需修改，
// 非正的尺寸、系数和周期在 New 里回填默认值。
type Config struct {
	Width          float64
	Height         float64
	ResourceCount  int
	ResourceMargin float64 // 资源点离地图边缘的最小距离
	BaseMargin     float64 // 基地离地图边缘的最小距离
	StartingMoney  int
	Palette        []string

	DetectFactor    float64 // 索敌半径 = range × DetectFactor
	AttackFactor    float64 // 攻击距离 = range × AttackFactor
	SpeedFactor     float64 // 每秒位移 = speed × SpeedFactor
	CollectRadius   float64
	ArriveThreshold float64

	ResourceAmount int
	RespawnPeriod  float64 // 秒
}

func DefaultConfig() Config {
	return Config{
		Width:           800,
		Height:          600,
		ResourceCount:   20,
		ResourceMargin:  50,
		BaseMargin:      100,
		StartingMoney:   1000,
		Palette:         []string{"#e74c3c", "#3498db", "#2ecc71", "#f1c40f"},
		DetectFactor:    25,
		AttackFactor:    20,
		SpeedFactor:     60,
		CollectRadius:   30,
		ArriveThreshold: 1,
		ResourceAmount:  100,
		RespawnPeriod:   30,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.ResourceCount < 0 {
		c.ResourceCount = 0
	}
	if c.ResourceMargin < 0 {
		c.ResourceMargin = d.ResourceMargin
	}
	if c.BaseMargin < 0 {
		c.BaseMargin = d.BaseMargin
	}
	if c.StartingMoney < 0 {
		c.StartingMoney = 0
	}
	if len(c.Palette) == 0 {
		c.Palette = d.Palette
	}
	if c.DetectFactor <= 0 {
		c.DetectFactor = d.DetectFactor
	}
	if c.AttackFactor <= 0 {
		c.AttackFactor = d.AttackFactor
	}
	if c.SpeedFactor <= 0 {
		c.SpeedFactor = d.SpeedFactor
	}
	if c.CollectRadius <= 0 {
		c.CollectRadius = d.CollectRadius
	}
	if c.ArriveThreshold <= 0 {
		c.ArriveThreshold = d.ArriveThreshold
	}
	if c.ResourceAmount <= 0 {
		c.ResourceAmount = d.ResourceAmount
	}
	if c.RespawnPeriod <= 0 {
		c.RespawnPeriod = d.RespawnPeriod
	}
	return c
}
