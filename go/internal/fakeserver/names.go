package fakeserver

var firstNames = []string{
	"Lionel", "Andres", "Luka", "Kevin", "Virgil", "Sergio", "Mohamed", "Harry",
	"Kylian", "Erling", "Robert", "Toni", "Manuel", "Thiago", "Bruno", "Joao",
	"Marco", "Paulo", "Son", "Riyad", "Jan", "Pedro", "Casemiro", "Raheem",
}

var lastNames = []string{
	"Silva", "Muller", "Rossi", "Garcia", "Martinez", "Kovac", "Novak", "Jansen",
	"Dubois", "Fernandes", "Costa", "Schmidt", "Nielsen", "Ivanov", "Lopez", "Moreau",
	"Bianchi", "Santos", "Andersen", "Petrov", "Horvat", "Kane", "Walker", "Oblak",
}

var countries = []string{
	"Argentina", "Brazil", "Croatia", "Denmark", "England", "France", "Germany",
	"Italy", "Netherlands", "Norway", "Poland", "Portugal", "Serbia", "Spain", "Turkey",
}

var teamNames = []string{
	"Red Lions", "Blue Harbour", "North Rovers", "City Wanderers", "Athletic Union",
	"Sporting Dynamo", "River Albion", "United Stars", "Olympic Villa", "Racing Forest",
}
