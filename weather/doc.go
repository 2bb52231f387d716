// Package weather provides core.WeatherProvider implementations: an
// OpenWeatherMap client for current conditions and the 5 day / 3 hour
// forecast, and Unavailable, which fails every call when no API key is set.
package weather
