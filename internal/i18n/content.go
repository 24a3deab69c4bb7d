package i18n

import "pitfinder-backend/internal/models"

// Onboarding holds the onboarding screen's strings
type Onboarding struct {
	ChooseRole      string `json:"iam"`
	Driver          string `json:"driver"`
	DriverDesc      string `json:"driverDesc"`
	Pit             string `json:"pit"`
	PitDesc         string `json:"pitDesc"`
	Buyer           string `json:"buyer"`
	BuyerDesc       string `json:"buyerDesc"`
	Details         string `json:"details"`
	NameLabel       string `json:"nameLabel"`
	NamePlaceholder string `json:"namePlaceholder"`
	PhoneLabel      string `json:"phoneLabel"`
	Button          string `json:"button"`
	Loading         string `json:"loading"`
	SelectionError  string `json:"selectionError"`
	NameError       string `json:"nameError"`
	PhoneError      string `json:"phoneError"`
	ErrorTitle      string `json:"errorTitle"`
	GenericError    string `json:"genericError"`
	SelectionTitle  string `json:"selectionTitle"`
	NameTitle       string `json:"nameTitle"`
	PhoneTitle      string `json:"phoneTitle"`
}

// Map holds the map screen's strings
type Map struct {
	SearchPlaceholder string `json:"searchPlaceholder"`
	DumpSite          string `json:"dumpSite"`
	PickupSite        string `json:"pickupSite"`
	WhatToDo          string `json:"whatToDo"`
	Dump              string `json:"dump"`
	Pickup            string `json:"pickup"`
	SelectMaterial    string `json:"selectMaterial"`
	Cancel            string `json:"cancel"`
	GetDirections     string `json:"getDirections"`
	Price             string `json:"price"`
	Hours             string `json:"hours"`
	Phone             string `json:"phone"`
	LocationSaved     string `json:"locationSaved"`
	LocationSavedDesc string `json:"locationSavedDesc"`
	DirectionsTitle   string `json:"directionsTitle"`
	DirectionsBody    string `json:"directionsBody"`
	AppleMaps         string `json:"appleMaps"`
	GoogleMaps        string `json:"googleMaps"`
	PitSelf           string `json:"pitSelf"`
	BuyerSelf         string `json:"buyerSelf"`
	LocationDenied    string `json:"locationDenied"`
}

var onboarding = map[models.Language]Onboarding{
	models.LanguageEnglish: {
		ChooseRole:      "Choose your role!",
		Driver:          "Driver",
		DriverDesc:      "I haul materials between locations",
		Pit:             "Pit Operator",
		PitDesc:         "I manage a dump site or quarry",
		Buyer:           "Material",
		BuyerDesc:       "I need materials delivered",
		Details:         "My Details",
		NameLabel:       "Full Name",
		NamePlaceholder: "John Doe",
		PhoneLabel:      "Phone Number",
		Button:          "Get Started",
		Loading:         "Creating Account...",
		SelectionError:  "Please select a role to continue.",
		NameError:       "Please enter your name.",
		PhoneError:      "Please enter your phone number.",
		ErrorTitle:      "Error",
		GenericError:    "Failed to save account details. Please try again.",
		SelectionTitle:  "Selection Required",
		NameTitle:       "Name Required",
		PhoneTitle:      "Phone Required",
	},
	models.LanguageSpanish: {
		ChooseRole:      "Selecciona tu rol!",
		Driver:          "Conductor",
		DriverDesc:      "Transporto materiales entre sitios",
		Pit:             "Operador de Cantera",
		PitDesc:         "Gestiono un vertedero o cantera",
		Buyer:           "Comprador",
		BuyerDesc:       "Necesito entrega de materiales",
		Details:         "Mis Detalles",
		NameLabel:       "Nombre Completo",
		NamePlaceholder: "Juan Pérez",
		PhoneLabel:      "Número de Teléfono",
		Button:          "Comenzar",
		Loading:         "Creando Cuenta...",
		SelectionError:  "Por favor selecciona un rol para continuar.",
		NameError:       "Por favor ingresa tu nombre.",
		PhoneError:      "Por favor ingresa tu número de teléfono.",
		ErrorTitle:      "Error",
		GenericError:    "No se pudieron guardar los detalles. Inténtalo de nuevo.",
		SelectionTitle:  "Selección Requerida",
		NameTitle:       "Nombre Requerido",
		PhoneTitle:      "Teléfono Requerido",
	},
}

var mapScreen = map[models.Language]Map{
	models.LanguageEnglish: {
		SearchPlaceholder: "Search City...",
		DumpSite:          "Dump Site",
		PickupSite:        "Pickup Site",
		WhatToDo:          "What would you like to do?",
		Dump:              "Dump",
		Pickup:            "Pick Up",
		SelectMaterial:    "Select Material",
		Cancel:            "Cancel",
		GetDirections:     "Get Directions",
		Price:             "Price:",
		Hours:             "Hours:",
		Phone:             "Phone:",
		LocationSaved:     "Location Saved",
		LocationSavedDesc: "Your location has been updated on the map.",
		DirectionsTitle:   "Get Directions",
		DirectionsBody:    "Choose an app for directions",
		AppleMaps:         "Apple Maps",
		GoogleMaps:        "Google Maps",
		PitSelf:           "MY PIT LOCATION",
		BuyerSelf:         "MY BUYER SITE",
		LocationDenied:    "Permission to access location was denied",
	},
	models.LanguageSpanish: {
		SearchPlaceholder: "Buscar Ciudad...",
		DumpSite:          "Sitio de Vertedero",
		PickupSite:        "Sitio de Recogida",
		WhatToDo:          "¿Qué te gustaría hacer?",
		Dump:              "Vertedero",
		Pickup:            "Recoger",
		SelectMaterial:    "Seleccionar Material",
		Cancel:            "Cancelar",
		GetDirections:     "Obtener Direcciones",
		Price:             "Precio:",
		Hours:             "Horario:",
		Phone:             "Teléfono:",
		LocationSaved:     "Ubicación Guardada",
		LocationSavedDesc: "Tu ubicación se ha actualizado en el mapa.",
		DirectionsTitle:   "Obtener Direcciones",
		DirectionsBody:    "Elige una aplicación",
		AppleMaps:         "Mapas de Apple",
		GoogleMaps:        "Mapas de Google",
		PitSelf:           "MI CANTERA",
		BuyerSelf:         "MI SITIO",
		// The mobile client never translated this one
		LocationDenied: "Permission to access location was denied",
	},
}

// OnboardingText returns onboarding strings, English for unknown languages
func OnboardingText(lang models.Language) Onboarding {
	return onboarding[lang.OrDefault()]
}

// MapText returns map screen strings, English for unknown languages
func MapText(lang models.Language) Map {
	return mapScreen[lang.OrDefault()]
}
