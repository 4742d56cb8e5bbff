package config

const (
	defaultConfigPath           = "~/.config/brigade/config.toml"
	defaultStateDir             = "~/.local/share/brigade"
	defaultCustomers            = 5
	defaultCooks                = 3
	defaultMaxOrdersPerCustomer = 3
	defaultMaxItemsPerOrder     = 4
	defaultQueueCapacity        = 10
	defaultPushTimeoutMS        = 2000
	defaultPopTimeoutMS         = 1000
	defaultBackpressurePauseMS  = 1000
	defaultBackpressureMaxMS    = 8000
	defaultArrivalMinMS         = 300
	defaultArrivalMaxMS         = 800
	defaultCookTimeScale        = 1.0
	defaultDishWeight           = 1.0
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	seedEnv                     = "BRIGADE_SEED"
)

func defaultDishes() []Dish {
	return []Dish{
		{Name: "Pizza", Seconds: 2.5, Priority: "medium", Weight: defaultDishWeight},
		{Name: "Ensalada", Seconds: 1.0, Priority: "low", Weight: defaultDishWeight},
		{Name: "Pasta", Seconds: 3.0, Priority: "medium", Weight: defaultDishWeight},
		{Name: "Sopa", Seconds: 1.5, Priority: "high", Weight: defaultDishWeight},
		{Name: "Hamburguesa", Seconds: 2.0, Priority: "medium", Weight: defaultDishWeight},
		{Name: "Filete", Seconds: 4.0, Priority: "high", Weight: defaultDishWeight},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Kitchen: Kitchen{
			Customers:            defaultCustomers,
			Cooks:                defaultCooks,
			MaxOrdersPerCustomer: defaultMaxOrdersPerCustomer,
			MaxItemsPerOrder:     defaultMaxItemsPerOrder,
			QueueCapacity:        defaultQueueCapacity,
		},
		Timing: Timing{
			PushTimeoutMS:          defaultPushTimeoutMS,
			PopTimeoutMS:           defaultPopTimeoutMS,
			BackpressurePauseMS:    defaultBackpressurePauseMS,
			BackpressureMaxPauseMS: defaultBackpressureMaxMS,
			ArrivalMinMS:           defaultArrivalMinMS,
			ArrivalMaxMS:           defaultArrivalMaxMS,
			CookTimeScale:          defaultCookTimeScale,
		},
		Menu: Menu{
			Dishes: defaultDishes(),
		},
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
