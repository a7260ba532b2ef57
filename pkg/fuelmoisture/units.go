package fuelmoisture

// CelsiusToFahrenheit converts a temperature in degrees Celsius to degrees Fahrenheit.
func CelsiusToFahrenheit(c float64) (float64, error) {
	if err := requireFinite("celsius", c); err != nil {
		return 0, err
	}
	return c*9/5 + 32, nil
}

// FahrenheitToCelsius converts a temperature in degrees Fahrenheit to degrees Celsius.
func FahrenheitToCelsius(f float64) (float64, error) {
	if err := requireFinite("fahrenheit", f); err != nil {
		return 0, err
	}
	return (f - 32) * 5 / 9, nil
}
