package utils

const ShortDashDateLayout = "2006-01-02"
